package report

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

// JSON writes all sessions as one JSON document.
type JSON struct {
	w io.Writer
}

// NewJSON returns a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSON { return &JSON{w: w} }

func (j *JSON) Name() string { return "json" }

// Document is the JSON reporter's output.
type Document struct {
	Sessions []Session `json:"sessions"`
}

// Session is one session in a [Document].
type Session struct {
	ID              string              `json:"id"`
	Target          string              `json:"target"`
	Requested       string              `json:"requested"`
	ResolvedVersion string              `json:"resolved_version,omitempty"`
	ConfigHash      string              `json:"config_hash,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
	Depth           *int                `json:"depth,omitempty"`
	DependencyKind  deps.DependencyKind `json:"dependency_kind,omitempty"`
	HasCycle        bool                `json:"has_cycle"`
	Graph           graph.Graph         `json:"graph"`
}

// Build converts sessions to a [Document]. Node annotations become node meta.
func Build(sessions []*session.AnalysisSession) (*Document, error) {
	doc := &Document{Sessions: make([]Session, 0, len(sessions))}
	for _, s := range sessions {
		g, err := s.Graph()
		if err != nil {
			return nil, err
		}
		m := s.Meta()
		doc.Sessions = append(doc.Sessions, Session{
			ID:              m.ID,
			Target:          m.Target,
			Requested:       m.Requested,
			ResolvedVersion: m.ResolvedVersion,
			ConfigHash:      m.ConfigHash,
			Timestamp:       m.Timestamp,
			Depth:           m.Depth,
			DependencyKind:  m.DependencyKind,
			HasCycle:        g.HasCycle(),
			Graph:           graph.Export(g, s.AllAnnotations),
		})
	}
	return doc, nil
}

// Report implements [pipeline.Reporter].
func (j *JSON) Report(_ context.Context, sessions []*session.AnalysisSession) error {
	doc, err := Build(sessions)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
