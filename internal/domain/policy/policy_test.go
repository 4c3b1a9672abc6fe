package policy

import (
	"testing"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "SELECT", Select.String())
	assert.Equal(t, "ALL", All.String())
	assert.Equal(t, "UPDATE|DELETE", (Update | Delete).String())
}

func TestProfiles_OnlyOwnerReachesRow(t *testing.T) {
	owner := entity.NewPrincipal(uuid.New(), "owner@example.com", entity.RoleBuyer)
	other := entity.NewPrincipal(uuid.New(), "other@example.com", entity.RoleSeller)
	anon := entity.Anonymous()
	row := entity.NewProfile(owner.ID, owner.Email)

	tests := []struct {
		name      string
		principal entity.Principal
		want      bool
	}{
		{name: "owner", principal: owner, want: true},
		{name: "other identity", principal: other, want: false},
		{name: "anonymous", principal: anon, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Profiles.Using(Select, tt.principal, row))
			assert.Equal(t, tt.want, Profiles.Using(Update, tt.principal, row))
			assert.Equal(t, tt.want, Profiles.Check(Insert, tt.principal, row))
			assert.Equal(t, tt.want, Profiles.Check(Update, tt.principal, row))
			assert.False(t, Profiles.Using(Delete, tt.principal, row), "no delete policy exists")
		})
	}
}

func TestCategories_ReadableByAllWritableByNone(t *testing.T) {
	row := entity.NewCategory("Books", "Books and educational materials")
	principals := []entity.Principal{
		entity.Anonymous(),
		entity.NewPrincipal(uuid.New(), "buyer@example.com", entity.RoleBuyer),
		entity.NewPrincipal(uuid.New(), "seller@example.com", entity.RoleSeller),
	}

	for _, p := range principals {
		assert.True(t, Categories.Using(Select, p, row))
		assert.False(t, Categories.Check(Insert, p, row))
		assert.False(t, Categories.Using(Update, p, row))
		assert.False(t, Categories.Check(Update, p, row))
		assert.False(t, Categories.Using(Delete, p, row))
	}
}

func TestProducts_Visibility(t *testing.T) {
	seller := entity.NewPrincipal(uuid.New(), "seller@example.com", entity.RoleSeller)
	buyer := entity.NewPrincipal(uuid.New(), "buyer@example.com", entity.RoleBuyer)
	anon := entity.Anonymous()

	active := entity.NewProduct(seller.ID, "Lamp", "Desk lamp", decimal.RequireFromString("19.99"))
	inactive := active.Clone()
	inactive.ID = uuid.New()
	inactive.Active = false

	assert.True(t, Products.Using(Select, anon, active))
	assert.True(t, Products.Using(Select, buyer, active))
	assert.True(t, Products.Using(Select, seller, active))

	assert.False(t, Products.Using(Select, anon, inactive))
	assert.False(t, Products.Using(Select, buyer, inactive))
	assert.True(t, Products.Using(Select, seller, inactive))

	visible := Products.Filter(buyer, []*entity.Product{active, inactive})
	assert.Equal(t, []*entity.Product{active}, visible)
}

func TestProducts_OnlySellerMutates(t *testing.T) {
	seller := entity.NewPrincipal(uuid.New(), "seller@example.com", entity.RoleSeller)
	otherSeller := entity.NewPrincipal(uuid.New(), "rival@example.com", entity.RoleSeller)
	row := entity.NewProduct(seller.ID, "Lamp", "", decimal.NewFromInt(10))

	for _, op := range []Operation{Update, Delete} {
		assert.True(t, Products.Using(op, seller, row), op.String())
		assert.False(t, Products.Using(op, otherSeller, row), op.String())
		assert.False(t, Products.Using(op, entity.Anonymous(), row), op.String())
	}

	assert.True(t, Products.Check(Insert, seller, row))
	assert.False(t, Products.Check(Insert, otherSeller, row))
	assert.False(t, Products.Check(Insert, entity.Anonymous(), row))
}

func TestObjects_PathOwnership(t *testing.T) {
	owner := entity.NewPrincipal(uuid.New(), "owner@example.com", entity.RoleSeller)
	other := entity.NewPrincipal(uuid.New(), "other@example.com", entity.RoleBuyer)
	set := Objects(ProductImagesBucket)

	own := &entity.StoredObject{Bucket: ProductImagesBucket, Name: owner.ID.String() + "/1700000000000.png"}
	foreignBucket := &entity.StoredObject{Bucket: "avatars", Name: owner.ID.String() + "/a.png"}
	flat := &entity.StoredObject{Bucket: ProductImagesBucket, Name: "1700000000000.png"}

	assert.True(t, set.Using(Select, entity.Anonymous(), own))
	assert.False(t, set.Using(Select, entity.Anonymous(), foreignBucket))

	assert.True(t, set.Check(Insert, other, own), "any authenticated identity may upload")
	assert.False(t, set.Check(Insert, entity.Anonymous(), own))
	assert.False(t, set.Check(Insert, owner, foreignBucket))

	assert.True(t, set.Using(Update, owner, own))
	assert.True(t, set.Using(Delete, owner, own))
	assert.False(t, set.Using(Update, other, own))
	assert.False(t, set.Using(Delete, other, own))
	assert.False(t, set.Using(Delete, owner, flat))
}
