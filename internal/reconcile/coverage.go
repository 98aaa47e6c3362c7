package reconcile

import (
	"time"

	"finguide/internal/calendar"
	"finguide/internal/models"
	"finguide/pkg/utils"
)

// CoverageStat is the fraction of executed trades that have a matching
// diary entry.
type CoverageStat struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
	Pct     int `json:"pct"`
}

// MonthCoverage is CoverageStat scoped to one calendar month.
type MonthCoverage struct {
	Month   string `json:"month"`
	Covered int    `json:"covered"`
	Total   int    `json:"total"`
	Pct     int    `json:"pct"`
}

// entryKeySet collects the complete reconciliation keys present in the
// diary. Keys deduplicate: two identical trade-linked entries count once.
func entryKeySet(k calendar.Keyer, entries []models.DiaryEntry) map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range entries {
		key := EntryKey(k, e)
		if Complete(key) {
			set[key] = struct{}{}
		}
	}
	return set
}

// Coverage computes how many transactions are documented by a diary entry.
// Transactions and entries with incomplete keys are silently excluded from
// both sides. Pct is always within [0, 100]; an empty transaction list
// yields {0, 0, 0}.
func Coverage(k calendar.Keyer, txs []models.Transaction, entries []models.DiaryEntry) CoverageStat {
	return coverKeys(txKeys(k, txs), entryKeySet(k, entries))
}

func txKeys(k calendar.Keyer, txs []models.Transaction) []string {
	keys := make([]string, 0, len(txs))
	for _, t := range txs {
		key := TransactionKey(k, t)
		if Complete(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

func coverKeys(keys []string, documented map[string]struct{}) CoverageStat {
	stat := CoverageStat{Total: len(keys)}
	for _, key := range keys {
		if _, ok := documented[key]; ok {
			stat.Covered++
		}
	}
	if stat.Total > 0 {
		stat.Pct = utils.RoundPct(float64(stat.Covered) / float64(stat.Total) * 100)
	}
	return stat
}

// MonthlyCoverage computes Coverage independently for each of the trailing
// monthsBack calendar months ending at the month containing now, oldest
// first. Only transactions whose month key matches a bucket count toward
// that bucket; diary keys are shared across buckets since the day part of
// the key already scopes the match.
func MonthlyCoverage(k calendar.Keyer, txs []models.Transaction, entries []models.DiaryEntry, now time.Time, monthsBack int) []MonthCoverage {
	documented := entryKeySet(k, entries)

	byMonth := make(map[string][]string)
	for _, t := range txs {
		key := TransactionKey(k, t)
		if !Complete(key) {
			continue
		}
		m := k.MonthKey(t.Timestamp)
		byMonth[m] = append(byMonth[m], key)
	}

	months := k.MonthKeysBack(now, monthsBack)
	out := make([]MonthCoverage, 0, len(months))
	for _, m := range months {
		stat := coverKeys(byMonth[m], documented)
		out = append(out, MonthCoverage{Month: m, Covered: stat.Covered, Total: stat.Total, Pct: stat.Pct})
	}
	return out
}
