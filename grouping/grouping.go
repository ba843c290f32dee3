// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package grouping turns a flat issue stream into a project → tracker →
// subject hierarchy.
package grouping

import (
	"iter"
	"strings"

	"github.com/danielhkuo/fabval/redmine"
)

// TrackerPrefix marks the trackers that map onto validated devices.
const TrackerPrefix = "P_"

type TrackerGroup struct {
	TrackerName string   `json:"tracker_name"`
	Subjects    []string `json:"subjects"`
}

type ProjectGroup struct {
	ProjectID   int64          `json:"project_id"`
	ProjectName string         `json:"project_name"`
	WorkerName  string         `json:"worker_name"`
	Trackers    []TrackerGroup `json:"trackers"`
}

type Result struct {
	Projects []ProjectGroup
	// DuplicateTrackers lists every repeat sighting of a tracker name after
	// its first, across all projects. Diagnostic only.
	DuplicateTrackers []string
}

// orderedSet keeps first-insertion order with O(1) membership.
type orderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{seen: make(map[T]struct{})}
}

// add reports whether v was new.
func (s *orderedSet[T]) add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

type trackerAcc struct {
	name     string
	subjects *orderedSet[string]
}

type projectAcc struct {
	id       int64
	name     string
	trackers map[string]*trackerAcc
	order    []string
}

// Group filters issues to prefixed trackers and groups them by project id
// then tracker name, keeping distinct subjects in first-seen order. Projects
// and trackers also come out in first-seen order. workerName is stamped on
// every project group.
func Group(issues iter.Seq[redmine.Issue], workerName string) Result {
	projects := map[int64]*projectAcc{}
	var projectOrder []int64
	seenTrackers := map[string]struct{}{}
	var duplicates []string

	for issue := range issues {
		trackerName := issue.Tracker.Name
		if !strings.HasPrefix(trackerName, TrackerPrefix) {
			continue
		}

		p, ok := projects[issue.Project.ID]
		if !ok {
			p = &projectAcc{
				id:       issue.Project.ID,
				name:     issue.Project.Name,
				trackers: map[string]*trackerAcc{},
			}
			projects[issue.Project.ID] = p
			projectOrder = append(projectOrder, issue.Project.ID)
		}

		t, ok := p.trackers[trackerName]
		if !ok {
			t = &trackerAcc{name: trackerName, subjects: newOrderedSet[string]()}
			p.trackers[trackerName] = t
			p.order = append(p.order, trackerName)
		}
		t.subjects.add(issue.Subject)

		if _, ok := seenTrackers[trackerName]; ok {
			duplicates = append(duplicates, trackerName)
		} else {
			seenTrackers[trackerName] = struct{}{}
		}
	}

	result := Result{
		Projects:          make([]ProjectGroup, 0, len(projectOrder)),
		DuplicateTrackers: duplicates,
	}
	for _, id := range projectOrder {
		p := projects[id]
		group := ProjectGroup{
			ProjectID:   p.id,
			ProjectName: p.name,
			WorkerName:  workerName,
			Trackers:    make([]TrackerGroup, 0, len(p.order)),
		}
		for _, name := range p.order {
			group.Trackers = append(group.Trackers, TrackerGroup{
				TrackerName: name,
				Subjects:    p.trackers[name].subjects.items,
			})
		}
		result.Projects = append(result.Projects, group)
	}
	return result
}
