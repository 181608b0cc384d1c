package userproduct

import "github.com/graph-gophers/graphql-go"

// UserArgs is the argument set of getAllUserProducts.
type UserArgs struct {
	UserID graphql.ID
}

// LinkArgs is the argument set of addUserProduct and deleteUserProduct.
// ID names the product.
type LinkArgs struct {
	UserID graphql.ID
	ID     graphql.ID
}
