//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package migration

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

// VerifyReport describes how far a destination deviates from one data line
// per ledger entry.
type VerifyReport struct {
	LedgerEntries int `json:"ledgerEntries"`
	DataRows      int `json:"dataRows"`

	CorruptLedgerLines []int `json:"corruptLedgerLines,omitempty"`
	CorruptDataLines   []int `json:"corruptDataLines,omitempty"`

	// DuplicateLedgerKeys are keys recorded more than once.
	DuplicateLedgerKeys []string `json:"duplicateLedgerKeys,omitempty"`
	// DuplicateDataKeys are keys with more than one data row, e.g. after a
	// crash between the data append and the ledger append.
	DuplicateDataKeys []string `json:"duplicateDataKeys,omitempty"`
	// MissingData are ledger keys without any data row.
	MissingData []string `json:"missingData,omitempty"`
	// Unrecorded are data rows whose key is not in the ledger.
	Unrecorded []string `json:"unrecorded,omitempty"`
}

// Consistent is true if every ledger entry has exactly one data row and
// vice versa.
func (r *VerifyReport) Consistent() bool {
	return r.LedgerEntries == r.DataRows &&
		len(r.CorruptLedgerLines) == 0 &&
		len(r.CorruptDataLines) == 0 &&
		len(r.DuplicateLedgerKeys) == 0 &&
		len(r.DuplicateDataKeys) == 0 &&
		len(r.MissingData) == 0 &&
		len(r.Unrecorded) == 0
}

// Verifier checks the pairing of a data object and its ledger. Data rows are
// matched to ledger keys through their provenance fields.
type Verifier struct {
	sink         *AppendSink
	dataObject   string
	ledgerObject string
	logger       logrus.FieldLogger
}

func NewVerifier(sink *AppendSink, dataObject, ledgerObject string, logger logrus.FieldLogger) *Verifier {
	return &Verifier{
		sink:         sink,
		dataObject:   dataObject,
		ledgerObject: ledgerObject,
		logger:       logger,
	}
}

func (v *Verifier) Verify(ctx context.Context) (*VerifyReport, error) {
	ledgerLines, err := v.sink.ReadLines(ctx, v.ledgerObject)
	if err != nil {
		return nil, migration.NewErrStorageUnavailable(errors.Wrap(err, "verify ledger"))
	}
	dataLines, err := v.sink.ReadLines(ctx, v.dataObject)
	if err != nil {
		return nil, migration.NewErrStorageUnavailable(errors.Wrap(err, "verify data"))
	}

	report := &VerifyReport{}

	ledgerKeys := map[string]int{}
	for i, line := range ledgerLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseLedgerLine(line)
		if err != nil {
			report.CorruptLedgerLines = append(report.CorruptLedgerLines, i+1)
			continue
		}
		report.LedgerEntries++
		ledgerKeys[entry.Key]++
	}

	dataKeys := map[string]int{}
	for i, line := range dataLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var record migration.Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			report.CorruptDataLines = append(report.CorruptDataLines, i+1)
			continue
		}
		key, ok := record.Key()
		if !ok {
			report.CorruptDataLines = append(report.CorruptDataLines, i+1)
			continue
		}
		report.DataRows++
		dataKeys[key]++
	}

	for key, n := range ledgerKeys {
		if n > 1 {
			report.DuplicateLedgerKeys = append(report.DuplicateLedgerKeys, key)
		}
		if dataKeys[key] == 0 {
			report.MissingData = append(report.MissingData, key)
		}
	}
	for key, n := range dataKeys {
		if n > 1 {
			report.DuplicateDataKeys = append(report.DuplicateDataKeys, key)
		}
		if ledgerKeys[key] == 0 {
			report.Unrecorded = append(report.Unrecorded, key)
		}
	}

	sort.Strings(report.DuplicateLedgerKeys)
	sort.Strings(report.DuplicateDataKeys)
	sort.Strings(report.MissingData)
	sort.Strings(report.Unrecorded)

	v.logger.WithFields(logrus.Fields{
		"action":         "verify_destination",
		"ledger_entries": report.LedgerEntries,
		"data_rows":      report.DataRows,
		"consistent":     report.Consistent(),
	}).Info("verified destination")

	return report, nil
}
