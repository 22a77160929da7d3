// Package kvserver is the collaborator spec.md §6 describes: it owns the
// listener socket lifecycle (create, bind, listen, non-blocking) that the
// dependency-free internal/core/* engine deliberately leaves out, then
// hands the fd to internal/core/eventloop.Loop and never touches it again.
package kvserver
