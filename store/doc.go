// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer: idempotent reconciliation of
tracker-derived entities, response upserts, and read queries.

# Units of Work

All writes of one synchronization request share a transaction:

	err := s.RunInTx(ctx, func(ctx context.Context, tx store.UnitOfWork) error {
		projectID, err := tx.ResolveProject(ctx, "Acme")
		...
	})

Returning an error from the callback rolls back everything it wrote.
Store.Queries gives a non-transactional UnitOfWork for reads.

# Reconciliation

Resolve* methods look an entity up by business key and create it when
absent, returning the id either way:

  - ResolveProject(name)
  - ResolveWorker(name)
  - ResolveSubtracker(projectID, name)
  - ResolveDeviceSubtracker(deviceID, subtrackerID)

Devices are never created by reconciliation; FindDeviceByName returns
ErrNotFound for unknown tracker names.

# Responses

UpsertResponse matches on the full key tuple with NULL-safe comparison and
updates in place; otherwise it inserts with status "pending".

# Errors

  - ErrNotFound: wrapped when a lookup finds no row
  - *IntegrityError: a constraint violation (duplicate key, bad reference)
*/
package store
