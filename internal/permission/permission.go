package permission

// BoardAccessRow is one row of the board/role access matrix. Absence of a row
// means no access; the writers below keep the table free of stale rows.
type BoardAccessRow struct {
	RoleID    string `json:"roleId"`
	CanRead   bool   `json:"canRead"`
	CanWrite  bool   `json:"canWrite"`
	CanDelete bool   `json:"canDelete"`
}

// EventPermissionRow is the per-role calendar grant. A role without a row
// falls back to read-only.
type EventPermissionRow struct {
	RoleID    string `json:"roleId"`
	CanCreate bool   `json:"canCreate"`
	CanRead   bool   `json:"canRead"`
	CanUpdate bool   `json:"canUpdate"`
	CanDelete bool   `json:"canDelete"`
}

func DefaultEventPermissionRow(roleID string) EventPermissionRow {
	return EventPermissionRow{RoleID: roleID, CanRead: true}
}
