package reviews

import (
	"errors"
	"strconv"
)

type recipeID string

func (r recipeID) Validate() error {
	v, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil {
		return errors.New("expected an integer")
	}
	if v < 0 {
		return errors.New("id should be non-negative")
	}
	return nil
}

func (r recipeID) Int64() int64 {
	v, _ := strconv.ParseInt(string(r), 10, 64)
	return v
}

type CreateReviewRequest struct {
	Rating  int32  `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}
