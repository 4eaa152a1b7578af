package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Teacher is a teaching-staff record.
type Teacher struct {
	ID        int64  `json:"id,omitempty"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ClusterID int64  `json:"cluster_id"`
	Active    bool   `json:"active"`
}

// TeacherListParams filters and pages the teacher listing.
type TeacherListParams struct {
	Page      int
	PageSize  int
	ClusterID int64
	Search    string
}

func (p TeacherListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.ClusterID > 0 {
		q.Set("cluster_id", strconv.FormatInt(p.ClusterID, 10))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

// TeacherList is a paged teacher listing.
type TeacherList struct {
	Items []Teacher `json:"items"`
	Total int       `json:"total"`
}

// ListTeachers returns teachers matching the given filters.
func (c *Client) ListTeachers(ctx context.Context, p TeacherListParams) (*TeacherList, error) {
	var out TeacherList
	if err := c.get(ctx, "/Teachers", p.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTeacher returns a single teacher by id.
func (c *Client) GetTeacher(ctx context.Context, id int64) (*Teacher, error) {
	var out Teacher
	if err := c.get(ctx, fmt.Sprintf("/Teachers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTeacher registers a new teacher and returns the stored record.
func (c *Client) CreateTeacher(ctx context.Context, t *Teacher) (*Teacher, error) {
	var out Teacher
	if err := c.post(ctx, "/Teachers", t, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// UpdateTeacher replaces an existing teacher record.
func (c *Client) UpdateTeacher(ctx context.Context, t *Teacher) (*Teacher, error) {
	if t.ID == 0 {
		return nil, fmt.Errorf("update teacher: missing id")
	}
	var out Teacher
	if err := c.put(ctx, fmt.Sprintf("/Teachers/%d", t.ID), t, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// DeleteTeacher removes a teacher record.
func (c *Client) DeleteTeacher(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/Teachers/%d", id)); err != nil {
		return err
	}
	c.invalidateCache()
	return nil
}
