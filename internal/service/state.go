package service

import (
	"slices"

	"github.com/alexanderramin/capplan/internal/domain"
)

// State is the complete in-memory application state. A State is never
// modified once published by PlanService; mutations work on a clone.
type State struct {
	Projects      []*domain.Project
	CustomActions []domain.CustomAction
	Audit         []domain.AuditEntry
	Archives      []domain.ArchiveEntry
}

// clone copies the top-level slices. Projects are shared until a mutation
// replaces one through mutableProject.
func (st *State) clone() *State {
	return &State{
		Projects:      slices.Clone(st.Projects),
		CustomActions: slices.Clone(st.CustomActions),
		Audit:         slices.Clone(st.Audit),
		Archives:      slices.Clone(st.Archives),
	}
}

func (st *State) projectIndex(id string) int {
	for i, p := range st.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// mutableProject swaps the project with the given ID for a private copy and
// returns it.
func (st *State) mutableProject(id string) (*domain.Project, bool) {
	i := st.projectIndex(id)
	if i < 0 {
		return nil, false
	}
	p := st.Projects[i].Clone()
	st.Projects[i] = p
	return p, true
}

func (st *State) customAction(id string) (domain.CustomAction, int) {
	for i, c := range st.CustomActions {
		if c.ID == id {
			return c, i
		}
	}
	return domain.CustomAction{}, -1
}
