package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CreateRequest is the validated input of the catalog writer. Nothing
// reaches the writer without passing Validate or FromRecord first.
type CreateRequest struct {
	Count       int             `json:"count"`
	Price       decimal.Decimal `json:"price"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

func (r CreateRequest) Validate() error {
	var reasons []string
	if r.Count <= 0 {
		reasons = append(reasons, "count must be a positive integer")
	}
	if r.Price.IsNegative() {
		reasons = append(reasons, "price must be non-negative")
	}
	if r.Title == "" {
		reasons = append(reasons, "title must not be empty")
	}
	if r.Description == "" {
		reasons = append(reasons, "description must not be empty")
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// FromRecord converts one untyped CSV record into a CreateRequest.
// The mapping is never trusted past this boundary.
func FromRecord(rec map[string]string) (CreateRequest, error) {
	var req CreateRequest
	var reasons []string

	count, err := strconv.Atoi(rec["count"])
	if err != nil || count <= 0 {
		reasons = append(reasons, "count must be a positive integer")
	} else {
		req.Count = count
	}

	price, err := decimal.NewFromString(rec["price"])
	if err != nil || price.IsNegative() {
		reasons = append(reasons, "price must be a non-negative decimal")
	} else {
		req.Price = price
	}

	if rec["title"] == "" {
		reasons = append(reasons, "title must not be empty")
	} else {
		req.Title = rec["title"]
	}
	if rec["description"] == "" {
		reasons = append(reasons, "description must not be empty")
	} else {
		req.Description = rec["description"]
	}

	if len(reasons) > 0 {
		return CreateRequest{}, &ValidationError{Reasons: reasons}
	}
	return req, nil
}
