package launchpad

import "github.com/xraph/launchpad/id"

// ID is the primary identifier type for all Launchpad entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
