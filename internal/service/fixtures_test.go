package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{VATRate: "21", ReceiptNumberPrefix: "REC"},
		Agency:   config.AgencyConfig{Name: "Your Agency S.L.", TaxID: "B12345678"},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newContract returns an active contract on a fresh property whose owner
// charges feePercent.
func newContract(start time.Time, rent, feePercent string) *domain.Contract {
	ownerID := uuid.New()
	propertyID := uuid.New()
	return &domain.Contract{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		MonthlyRent: dec(rent),
		StartDate:   start,
		Active:      true,
		CreatedAt:   start,
		UpdatedAt:   start,
		Property:    &domain.Property{ID: propertyID, OwnerID: ownerID, Address: "Calle Mayor 1, 2B"},
		Owner:       &domain.Owner{ID: ownerID, FullName: "Ana García", TaxID: "12345678Z", ManagementFeePercent: dec(feePercent)},
		Tenants: []domain.ContractTenant{
			{Tenant: domain.Tenant{ID: uuid.New(), FullName: "Luis Pérez", NationalID: "87654321X"}, IsPrimary: true},
		},
	}
}

type settlementKey struct {
	contractID uuid.UUID
	period     domain.Period
}

// memSettlements is an in-memory SettlementRepository with the same
// one-row-per-period upsert semantics as the SQL one. failOn injects a store
// error for specific periods.
type memSettlements struct {
	mu     sync.Mutex
	rows   map[settlementKey]*domain.Settlement
	failOn map[domain.Period]error
}

func newMemSettlements() *memSettlements {
	return &memSettlements{
		rows:   make(map[settlementKey]*domain.Settlement),
		failOn: make(map[domain.Period]error),
	}
}

func (m *memSettlements) Upsert(_ context.Context, s *domain.Settlement) (*domain.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failOn[s.Period()]; err != nil {
		return nil, err
	}

	key := settlementKey{s.ContractID, s.Period()}
	stored := *s
	if existing, ok := m.rows[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	m.rows[key] = &stored

	out := stored
	return &out, nil
}

func (m *memSettlements) Delete(_ context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := settlementKey{contractID, period}
	_, ok := m.rows[key]
	delete(m.rows, key)
	return ok, nil
}

func (m *memSettlements) Exists(_ context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.rows[settlementKey{contractID, period}]
	return ok, nil
}

func (m *memSettlements) ListByContract(_ context.Context, contractID uuid.UUID) ([]*domain.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Settlement
	for key, s := range m.rows {
		if key.contractID == contractID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period().After(out[j].Period()) })
	return out, nil
}

func (m *memSettlements) ListByContractsAndYear(_ context.Context, contractIDs []uuid.UUID, year int) ([]*domain.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(contractIDs))
	for _, id := range contractIDs {
		wanted[id] = true
	}

	var out []*domain.Settlement
	for key, s := range m.rows {
		if wanted[key.contractID] && key.period.Year == year {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period().Before(out[j].Period()) })
	return out, nil
}

func (m *memSettlements) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memArrearsCache is an in-memory ArrearsCache keyed like the Redis one.
type memArrearsCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]map[domain.Period]*domain.ArrearsSummary
	sets    int
}

func newMemArrearsCache() *memArrearsCache {
	return &memArrearsCache{entries: make(map[uuid.UUID]map[domain.Period]*domain.ArrearsSummary)}
}

func (m *memArrearsCache) Get(_ context.Context, contractID uuid.UUID, asOf domain.Period) (*domain.ArrearsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[contractID][asOf], nil
}

func (m *memArrearsCache) Set(_ context.Context, summary *domain.ArrearsSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[summary.ContractID] == nil {
		m.entries[summary.ContractID] = make(map[domain.Period]*domain.ArrearsSummary)
	}
	m.entries[summary.ContractID][summary.AsOf] = summary
	m.sets++
	return nil
}

func (m *memArrearsCache) Invalidate(_ context.Context, contractID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, contractID)
	return nil
}
