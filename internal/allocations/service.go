// Package allocations stores each user's sector allocation.
//
// Saves are append-only: every Save inserts a new record and Get returns whichever
// record the store yields first for the user. History is never pruned.
package allocations

import (
	"context"
	"fmt"

	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
)

// Collection is the store collection holding allocation records.
const Collection = "allocation"

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// Save records sectors as the user's allocation.
func (s *Service) Save(ctx context.Context, email string, sectors map[string]float64) error {
	existing, err := s.st.Query(ctx, Collection, store.Fields{"user_email": email}, 1)
	if err != nil {
		return fmt.Errorf("save allocation: %w", err)
	}
	if sectors == nil {
		sectors = map[string]float64{}
	}
	if _, err := s.st.Create(ctx, Collection, store.Fields{"user_email": email, "sectors": sectors}); err != nil {
		return fmt.Errorf("save allocation: %w", err)
	}
	if len(existing) > 0 {
		logger.Debugf("allocation appended for user with prior record id=%s", existing[0].ID())
	}
	return nil
}

// Get returns the sector map of the first stored allocation for the user, or an empty map.
func (s *Service) Get(ctx context.Context, email string) (map[string]float64, error) {
	recs, err := s.st.Query(ctx, Collection, store.Fields{"user_email": email}, 1)
	if err != nil {
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	if len(recs) == 0 {
		return map[string]float64{}, nil
	}
	var a models.Allocation
	if err := store.Decode(recs[0], &a); err != nil {
		return nil, fmt.Errorf("allocation %s: %w", recs[0].ID(), err)
	}
	if a.Sectors == nil {
		a.Sectors = map[string]float64{}
	}
	return a.Sectors, nil
}
