// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package redmine fetches issues from a Redmine-compatible tracker.
//
//	c := redmine.NewClient("https://redmine.example.com", user, pass)
//	issues, err := c.FetchIssues(ctx)
//
// Failures are returned as *UpstreamError.
package redmine
