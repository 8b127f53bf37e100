// Package directory is the identity directory: it resolves canonical
// identifiers for tag and series names, minting new identities on demand.
// The SQLite index backs name lookups; identity files written through the
// codec remain the catalog's source of truth.
package directory
