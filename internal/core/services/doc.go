// Package services implements the driving port interfaces.
//
// GroupService owns the update protocol: resolve (or create) a group by
// name, apply a desired state in memory, submit the full rule and classes,
// then read the group back and verify the delta was saved. BatchService
// runs GroupService over every group of a desired-state file, and
// HistoryService reads the journal GroupService writes.
//
// Services depend only on domain and the driven ports; every adapter is
// passed in by the composition root.
package services
