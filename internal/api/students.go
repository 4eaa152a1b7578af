package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Student is a learner record. The server owns validation and derived
// fields; the client forwards payloads as-is.
type Student struct {
	ID           int64  `json:"id,omitempty"`
	FullName     string `json:"full_name"`
	Gender       string `json:"gender,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"` // ISO 8601 date
	GuardianName string `json:"guardian_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ClusterID    int64  `json:"cluster_id"`
	ProgramID    int64  `json:"program_id"`
	Active       bool   `json:"active"`
}

// StudentListParams filters and pages the student listing.
type StudentListParams struct {
	Page      int
	PageSize  int
	ClusterID int64
	ProgramID int64
	Search    string
}

func (p StudentListParams) values() url.Values {
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
	if p.ProgramID > 0 {
		q.Set("program_id", strconv.FormatInt(p.ProgramID, 10))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

// StudentList is a paged student listing.
type StudentList struct {
	Items []Student `json:"items"`
	Total int       `json:"total"`
}

// ListStudents returns students matching the given filters.
func (c *Client) ListStudents(ctx context.Context, p StudentListParams) (*StudentList, error) {
	var out StudentList
	if err := c.get(ctx, "/Students", p.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStudent returns a single student by id.
func (c *Client) GetStudent(ctx context.Context, id int64) (*Student, error) {
	var out Student
	if err := c.get(ctx, fmt.Sprintf("/Students/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStudent registers a new student and returns the stored record.
func (c *Client) CreateStudent(ctx context.Context, s *Student) (*Student, error) {
	var out Student
	if err := c.post(ctx, "/Students", s, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// UpdateStudent replaces an existing student record.
func (c *Client) UpdateStudent(ctx context.Context, s *Student) (*Student, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("update student: missing id")
	}
	var out Student
	if err := c.put(ctx, fmt.Sprintf("/Students/%d", s.ID), s, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/Students/%d", id)); err != nil {
		return err
	}
	c.invalidateCache()
	return nil
}
