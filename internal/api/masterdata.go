package api

import (
	"context"
	"fmt"
)

// Cluster is a learning centre grouping students and teachers.
type Cluster struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Active   bool   `json:"active"`
}

// Program is an educational program run across clusters.
type Program struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// ListClusters returns all learning centres. Served from the read cache
// when one is enabled; cluster data changes rarely.
func (c *Client) ListClusters(ctx context.Context) ([]Cluster, error) {
	var out []Cluster
	if err := c.getCached(ctx, "/Clusters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCluster returns a single learning centre by id.
func (c *Client) GetCluster(ctx context.Context, id int64) (*Cluster, error) {
	var out Cluster
	if err := c.get(ctx, fmt.Sprintf("/Clusters/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCluster registers a new learning centre.
func (c *Client) CreateCluster(ctx context.Context, cl *Cluster) (*Cluster, error) {
	var out Cluster
	if err := c.post(ctx, "/Clusters", cl, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// UpdateCluster replaces an existing learning centre record.
func (c *Client) UpdateCluster(ctx context.Context, cl *Cluster) (*Cluster, error) {
	if cl.ID == 0 {
		return nil, fmt.Errorf("update cluster: missing id")
	}
	var out Cluster
	if err := c.put(ctx, fmt.Sprintf("/Clusters/%d", cl.ID), cl, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}

// ListPrograms returns all programs. Served from the read cache when one
// is enabled.
func (c *Client) ListPrograms(ctx context.Context) ([]Program, error) {
	var out []Program
	if err := c.getCached(ctx, "/Programs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProgram returns a single program by id.
func (c *Client) GetProgram(ctx context.Context, id int64) (*Program, error) {
	var out Program
	if err := c.get(ctx, fmt.Sprintf("/Programs/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProgram registers a new program.
func (c *Client) CreateProgram(ctx context.Context, p *Program) (*Program, error) {
	var out Program
	if err := c.post(ctx, "/Programs", p, &out); err != nil {
		return nil, err
	}
	c.invalidateCache()
	return &out, nil
}
