// Package graphql exposes the product list as a read-only GraphQL query
// surface. Mutations go through the REST API.
package graphql

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/app/services"
	gql "github.com/shashiranjanraj/shoplist/pkg/graphql"
	"github.com/shashiranjanraj/shoplist/pkg/response"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"uid": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(models.Product).UID), nil
			},
		},
		"catalogId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).CatalogID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Name, nil
			},
		},
		"quantity": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Quantity, nil
			},
		},
		"imageBytes": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return len(p.Source.(models.Product).ImageData), nil
			},
		},
	},
})

// NewSchema builds the query schema over the product service.
func NewSchema(service *services.ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return service.List()
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"uid": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					uid, _ := p.Args["uid"].(int)
					product, err := service.Get(uint(uid))
					if errors.Is(err, repositories.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return product, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler serves POST /api/graphql.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid graphql request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
