// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package syncer runs a tracker synchronization end to end.

	svc := syncer.NewService(st, syncer.RedmineSource(100, 30*time.Second))
	result, err := svc.Sync(ctx, models.SyncRequest{URL: u, User: user, Pass: pass})

Sync fetches every issue, groups them (see package grouping), then in one
transaction resolves the project and worker, and for every tracker that
names a known device resolves a subtracker per subject, links it to the
device, resolves the device's questions and seeds a pending response per
question.

# Errors

  - *ValidationError: missing credentials or nothing to synchronize
  - *redmine.UpstreamError: the fetch failed; nothing was persisted
  - *store.IntegrityError: a constraint failed; the transaction rolled back

# Question Resolution

ResolveQuestions groups a device's questions by block. It returns nil for an
unknown subtracker or device.
*/
package syncer
