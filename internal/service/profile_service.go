package service

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
)

type ProfileService struct {
	*base
}

func (s *ProfileService) Get(ctx context.Context) (ledger.StoreProfile, error) {
	return s.storage.Read().GetProfile(ctx)
}

func (s *ProfileService) Save(ctx context.Context, profile ledger.StoreProfile) error {
	return s.run(ctx, &actions.SaveProfile{Profile: profile}, Mutation{Kind: MutationProfileSaved})
}
