package masterdata

import "context"

// RepositoryPort defines data access methods for master data.
type RepositoryPort interface {
	CreateFamily(ctx context.Context, name string) (*CommunityFamily, error)
	ListFamilies(ctx context.Context) ([]CommunityFamily, error)
	CreateCommunity(ctx context.Context, c *Community) (*Community, error)
	ListCommunities(ctx context.Context, familyID int64) ([]Community, error)
	CreateNeedCategory(ctx context.Context, c *NeedCategory) (*NeedCategory, error)
	ListNeedCategories(ctx context.Context) ([]NeedCategory, error)
}
