package config

import (
	"fmt"

	"github.com/rickgao/impact-response/internal/batch"
	"github.com/rickgao/impact-response/internal/grid"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/pipeline"
	"github.com/rickgao/impact-response/internal/response"
	"github.com/rickgao/impact-response/internal/sign"
)

// SessionGrid returns the configured session.
func (c *Config) SessionGrid() (model.Session, error) {
	unit, err := model.ParseUnit(c.Session.Unit)
	if err != nil {
		return model.Session{}, fmt.Errorf("session.unit: %w", err)
	}
	return model.Session{
		Start: c.Session.Start,
		End:   c.Session.End,
		Step:  c.Session.Step,
		Unit:  unit,
	}, nil
}

// Options returns the estimator options.
func (c *Config) Options() (response.Options, error) {
	returns, err := response.ParseReturnKind(c.Response.ReturnKind)
	if err != nil {
		return response.Options{}, fmt.Errorf("response.return_kind: %w", err)
	}
	support, err := response.ParseSupportPolicy(c.Response.Support)
	if err != nil {
		return response.Options{}, fmt.Errorf("response.support: %w", err)
	}
	return response.Options{
		TauMax:  c.Response.TauMax,
		Returns: returns,
		Support: support,
	}, nil
}

// Builder returns the per-day grid builder.
func (c *Config) Builder() (pipeline.Builder, error) {
	session, err := c.SessionGrid()
	if err != nil {
		return pipeline.Builder{}, err
	}
	r := c.Response
	hold, err := grid.ParseHold(r.Hold)
	if err != nil {
		return pipeline.Builder{}, fmt.Errorf("response.hold: %w", err)
	}
	fill, err := grid.ParseFill(r.Fill)
	if err != nil {
		return pipeline.Builder{}, fmt.Errorf("response.fill: %w", err)
	}
	field, err := grid.ParseField(r.Field)
	if err != nil {
		return pipeline.Builder{}, fmt.Errorf("response.field: %w", err)
	}
	weighting, err := sign.ParseWeighting(r.Weighting)
	if err != nil {
		return pipeline.Builder{}, fmt.Errorf("response.weighting: %w", err)
	}
	signs, err := pipeline.ParseSignSource(r.SignSource)
	if err != nil {
		return pipeline.Builder{}, fmt.Errorf("response.sign_source: %w", err)
	}
	return pipeline.Builder{
		Session:   session,
		Grid:      grid.Policy{Hold: hold, Fill: fill},
		Field:     field,
		Weighting: weighting,
		Signs:     signs,
		Seed:      int8(r.Seed),
	}, nil
}

// Batch returns the driver configuration.
func (c *Config) Batch() (batch.Config, error) {
	opts, err := c.Options()
	if err != nil {
		return batch.Config{}, err
	}
	return batch.Config{
		Concurrency: c.Run.Concurrency,
		Options:     opts,
		ShiftTau:    c.Response.ShiftTau,
	}, nil
}
