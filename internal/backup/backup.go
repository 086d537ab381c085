// Package backup keeps a local copy of every accepted order in an
// embedded pebble database. When the sheet store is unreachable the
// backup is the only durable record, so writes are synced.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"

	"tableserve/internal/domain"
)

var ErrNotFound = errors.New("order not found in backup")

type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(order domain.Order) error {
	val, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := s.db.Set([]byte(order.OrderID), val, pebble.Sync); err != nil {
		return fmt.Errorf("write order %s: %w", order.OrderID, err)
	}
	return nil
}

func (s *Store) Get(orderID string) (domain.Order, error) {
	val, closer, err := s.db.Get([]byte(orderID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return domain.Order{}, ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("read order %s: %w", orderID, err)
	}
	defer closer.Close()

	var order domain.Order
	if err := json.Unmarshal(val, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return order, nil
}

// List returns every backed-up order, newest first.
func (s *Store) List() ([]domain.Order, error) {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("backup iterator: %w", err)
	}
	defer it.Close()

	var orders []domain.Order
	for it.First(); it.Valid(); it.Next() {
		var order domain.Order
		if err := json.Unmarshal(it.Value(), &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("backup iterator: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAtISO > orders[j].PlacedAtISO
	})
	return orders, nil
}

// Purge deletes orders placed before the cutoff and reports how many were
// removed. Orders without a datable placement time are kept.
func (s *Store) Purge(olderThan time.Time) (int, error) {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return 0, fmt.Errorf("backup iterator: %w", err)
	}

	var stale [][]byte
	for it.First(); it.Valid(); it.Next() {
		var order domain.Order
		if err := json.Unmarshal(it.Value(), &order); err != nil {
			continue
		}
		placed, err := time.Parse(time.RFC3339, order.PlacedAtISO)
		if err != nil {
			continue
		}
		if placed.Before(olderThan) {
			stale = append(stale, append([]byte(nil), it.Key()...))
		}
	}
	if err := it.Error(); err != nil {
		it.Close()
		return 0, fmt.Errorf("backup iterator: %w", err)
	}
	it.Close()

	for _, key := range stale {
		if err := s.db.Delete(key, pebble.Sync); err != nil {
			return 0, fmt.Errorf("delete order %s: %w", key, err)
		}
	}
	return len(stale), nil
}
