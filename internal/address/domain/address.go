package domain

import (
	"errors"

	"github.com/greenveggies/backend/shared/validation"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRequest struct {
	UserID   string `json:"userID"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Street   string `json:"street"`
	Default  bool   `json:"default"`
}

func (r AddressRequest) Validate() validation.Errors {
	errs := validation.New()

	if r.UserID == "" {
		errs.Add("userID", "userID is required")
	}
	if r.City == "" {
		errs.Add("city", "city is required")
	}
	if r.District == "" {
		errs.Add("district", "district is required")
	}
	if r.Ward == "" {
		errs.Add("ward", "ward is required")
	}
	if r.Street == "" {
		errs.Add("street", "street is required")
	}

	return errs
}
