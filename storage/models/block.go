package models

// BlockRelation is a read-side filter row. Owned by the main
// application; this service only ever resolves blocked-id sets from it.
type BlockRelation struct {
	BlockerID int64 `json:"blockerId"`
	BlockedID int64 `json:"blockedId"`
}
