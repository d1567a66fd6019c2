package db

import (
	"context"
	"fmt"
	"log"

	"github.com/diewo77/go-crm/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const copyBatchSize = 200

// CopyData copies every CRM row from src to dst keeping ids, skipping rows
// whose id already exists in dst, then realigns dst sequences. It returns the
// number of rows read per table.
func CopyData(ctx context.Context, src, dst *DB) (map[string]int, error) {
	var (
		users        []models.User
		companies    []models.Company
		calls        []models.Call
		appointments []models.Appointment
	)
	counts := map[string]int{}
	read := func(table string, dest any) error {
		if err := src.Gorm.WithContext(ctx).Order("id").Find(dest).Error; err != nil {
			return fmt.Errorf("read %s: %w", table, err)
		}
		return nil
	}
	if err := read("users", &users); err != nil {
		return nil, err
	}
	if err := read("companies", &companies); err != nil {
		return nil, err
	}
	if err := read("calls", &calls); err != nil {
		return nil, err
	}
	if err := read("appointments", &appointments); err != nil {
		return nil, err
	}
	counts["users"], counts["companies"], counts["calls"], counts["appointments"] = len(users), len(companies), len(calls), len(appointments)

	err := dst.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, batch := range []struct {
			table string
			rows  any
			n     int
		}{
			{"users", &users, len(users)},
			{"companies", &companies, len(companies)},
			{"calls", &calls, len(calls)},
			{"appointments", &appointments, len(appointments)},
		} {
			if batch.n == 0 {
				continue
			}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(batch.rows, copyBatchSize).Error
			if err != nil {
				return fmt.Errorf("insert %s: %w", batch.table, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := dst.Dialect.ResetSequences(ctx, dst, Tables...); err != nil {
		return nil, err
	}
	log.Printf("[DB] copied %v from %s to %s", counts, src.Dialect.Name(), dst.Dialect.Name())
	return counts, nil
}
