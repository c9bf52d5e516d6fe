// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the statestore.Store interface.
//
// # Characteristics
//
//   - **Ephemeral:** State lives as long as the process.
//   - **Thread-Safe:** A single mutex guards the map; listeners run outside it.
//   - **Batched:** Notifications are coalesced per outermost Batch call.
//
// For state that must survive a restart a different implementation would be
// needed; persistence formats are outside the scope of the engine.
package inmemorystore
