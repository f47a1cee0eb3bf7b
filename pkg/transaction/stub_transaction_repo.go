package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/finsight/finsight/pkg/category"
)

// StubRepo keeps transactions in memory and reimplements the aggregation
// queries over the slice. Categories referenced by id can be registered with
// WithCategory so resolution works like the SQL join.
type StubRepo struct {
	nextId     int
	data       map[int]Transaction
	categories map[int]category.Category
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		nextId:     0,
		data:       map[int]Transaction{},
		categories: map[int]category.Category{},
	}
}

func (s *StubRepo) WithCategory(c category.Category) *StubRepo {
	s.categories[c.Id] = c
	return s
}

func (s *StubRepo) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	s.nextId++
	tx.Id = s.nextId
	tx.CreatedAt = time.Now()
	s.data[tx.Id] = tx
	return tx.Id, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id int) (Transaction, error) {
	tx, ok := s.data[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return s.resolve(tx), nil
}

func (s *StubRepo) Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	var result []Transaction
	for _, tx := range s.data {
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !tx.Date.Before(filter.To) {
			continue
		}
		if filter.CategoryId != 0 && tx.CategoryRef.CategoryId != filter.CategoryId {
			continue
		}
		result = append(result, s.resolve(tx))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	if _, ok := s.data[tx.Id]; !ok {
		return false, nil
	}
	s.data[tx.Id] = tx
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) MonthlySums(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlySum, error) {
	type bucket struct {
		year  int
		month time.Month
		kind  category.Kind
	}
	sums := map[bucket]float64{}
	for _, tx := range s.data {
		if tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}
		b := bucket{tx.Date.Year(), tx.Date.Month(), tx.Kind}
		sums[b] += tx.Amount
	}

	result := make([]MonthlySum, 0, len(sums))
	for b, total := range sums {
		result = append(result, MonthlySum{Year: b.year, Month: b.month, Kind: b.kind, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

func (s *StubRepo) CategoryTotals(ctx context.Context, userId int, kind category.Kind, from time.Time, to time.Time) ([]CategoryTotal, error) {
	totals := map[string]*CategoryTotal{}
	for _, tx := range s.data {
		if tx.Kind != kind || tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}
		resolved := s.resolve(tx).Category
		if existing, ok := totals[resolved.Name]; ok {
			existing.Total += tx.Amount
		} else {
			totals[resolved.Name] = &CategoryTotal{Category: resolved, Total: tx.Amount}
		}
	}

	result := make([]CategoryTotal, 0, len(totals))
	for _, total := range totals {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Total > result[j].Total })
	return result, nil
}

func (s *StubRepo) resolve(tx Transaction) Transaction {
	var stored *category.Category
	if !tx.CategoryRef.IsCustom() {
		if c, ok := s.categories[tx.CategoryRef.CategoryId]; ok {
			stored = &c
		}
	}
	tx.Category = category.Resolve(tx.CategoryRef, stored)
	return tx
}

func (s *StubRepo) Cleanup() {
	s.data = map[int]Transaction{}
	s.categories = map[int]category.Category{}
}
