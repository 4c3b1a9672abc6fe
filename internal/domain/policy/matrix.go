package policy

import (
	"marketplace/internal/domain/entity"
)

// ProductImagesBucket is the bucket product images are uploaded to.
const ProductImagesBucket = "product-images"

func ownProfile(principal entity.Principal, row *entity.Profile) bool {
	return principal.Is(row.ID)
}

func anyone[T any](entity.Principal, *T) bool {
	return true
}

func activeProduct(_ entity.Principal, row *entity.Product) bool {
	return row.Active
}

func ownProduct(principal entity.Principal, row *entity.Product) bool {
	return principal.Is(row.SellerID)
}

// Profiles: an identity reaches only its own profile.
//
//nolint:gochecknoglobals
var Profiles = Set[entity.Profile]{
	Table: "profiles",
	Policies: []Policy[entity.Profile]{
		{Name: "Users can view own profile", For: Select, Using: ownProfile},
		{Name: "Users can update own profile", For: Update, Using: ownProfile},
		{Name: "Users can insert own profile", For: Insert, WithCheck: ownProfile},
	},
}

// Categories: readable by everyone, writable by no one.
//
//nolint:gochecknoglobals
var Categories = Set[entity.Category]{
	Table: "categories",
	Policies: []Policy[entity.Category]{
		{Name: "Anyone can view categories", For: Select, Using: anyone[entity.Category]},
	},
}

// Products: active rows are public, sellers have full control of their own rows.
//
//nolint:gochecknoglobals
var Products = Set[entity.Product]{
	Table: "products",
	Policies: []Policy[entity.Product]{
		{Name: "Anyone can view active products", For: Select, Using: activeProduct},
		{Name: "Sellers can manage own products", For: All, Using: ownProduct},
	},
}

// Objects returns the storage policies for a bucket. Ownership of an object is
// the first segment of its name.
func Objects(bucket string) Set[entity.StoredObject] {
	inBucket := func(row *entity.StoredObject) bool {
		return row.Bucket == bucket
	}
	ownsPath := func(principal entity.Principal, row *entity.StoredObject) bool {
		return inBucket(row) && principal.IsAuthenticated() && principal.ID.String() == row.OwnerSegment()
	}

	return Set[entity.StoredObject]{
		Table: "storage.objects",
		Policies: []Policy[entity.StoredObject]{
			{
				Name:  "Anyone can view product images",
				For:   Select,
				Using: func(_ entity.Principal, row *entity.StoredObject) bool { return inBucket(row) },
			},
			{
				Name: "Authenticated users can upload product images",
				For:  Insert,
				WithCheck: func(principal entity.Principal, row *entity.StoredObject) bool {
					return inBucket(row) && principal.IsAuthenticated()
				},
			},
			{Name: "Users can update own product images", For: Update, Using: ownsPath},
			{Name: "Users can delete own product images", For: Delete, Using: ownsPath},
		},
	}
}
