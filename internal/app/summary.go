package app

import (
	"github.com/bobmcallan/anvil/internal/mine"
	"github.com/bobmcallan/anvil/internal/models"
	"github.com/bobmcallan/anvil/internal/safety"
)

// Summary is the per-run report printed by the CLI.
type Summary struct {
	RunID      string                     `json:"run_id"`
	API        string                     `json:"api"`
	Endpoints  int                        `json:"endpoints"`
	Mined      int                        `json:"mined"`
	Dropped    []mine.DroppedTool         `json:"dropped,omitempty"`
	Accepted   int                        `json:"accepted"`
	Tiers      map[models.SafetyLevel]int `json:"tiers"`
	Rejected   []safety.Rejection         `json:"rejected,omitempty"`
	ServerName string                     `json:"server_name,omitempty"`
	EnvPrefix  string                     `json:"env_prefix,omitempty"`
	OutputDir  string                     `json:"output_dir,omitempty"`
	Artifacts  []string                   `json:"artifacts,omitempty"`
}

// Summary reports what the run produced so far.
func (r *Run) Summary() Summary {
	s := Summary{RunID: r.ID}
	if r.Spec != nil {
		s.API = r.Spec.Title
		s.Endpoints = len(r.Spec.Endpoints)
	}
	if r.Mined != nil {
		s.Mined = len(r.Mined.Tools)
		s.Dropped = r.Mined.Dropped
	}
	if r.Classified != nil {
		s.Accepted = len(r.Classified.Accepted)
		s.Tiers = r.Classified.Counts()
		s.Rejected = r.Classified.Rejected
	}
	if r.Server != nil {
		s.ServerName = r.Server.ServerName
		s.EnvPrefix = r.Server.EnvPrefix
		s.OutputDir = r.Server.OutputDir
		for _, a := range r.Server.Artifacts {
			s.Artifacts = append(s.Artifacts, a.Path)
		}
	}
	return s
}
