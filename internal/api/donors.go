package api

import (
	"context"
	"net/url"
	"strconv"
)

// Donor is a donor record with their latest contribution.
type Donor struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	DonatedAt string  `json:"donated_at,omitempty"` // ISO 8601 date
}

// DonorList is a paged donor listing.
type DonorList struct {
	Items []Donor `json:"items"`
	Total int     `json:"total"`
}

// ListDonors returns donors, newest contribution first.
func (c *Client) ListDonors(ctx context.Context, page, pageSize int) (*DonorList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var out DonorList
	if err := c.get(ctx, "/Donors", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDonor registers a new donor record.
func (c *Client) CreateDonor(ctx context.Context, d *Donor) (*Donor, error) {
	var out Donor
	if err := c.post(ctx, "/Donors", d, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}
