// Package collision predicts and resolves hard-disk contacts.
//
// Every contact partner is an [Obstacle], a tagged variant over the three
// kinds the event loop deals with:
//
//   - [KindBody]: another movable disk (finite mass)
//   - [KindStatic]: an immovable disk (infinite mass, zero velocity)
//   - [KindWall]: one of the four box walls
//
// Both [TimeTo] and [Resolve] dispatch on the kind with a single switch so
// the closed-form contact times and the elastic laws sit next to each
// other. Nothing in this package mutates a [body.Body]; resolvers return the
// post-collision copies.
//
// # Repeated contacts
//
// Re-solving the pair that just collided can produce a tiny positive time
// from floating-point residue. A [Fence] remembers the pairs resolved in
// the previous step and rejects their contact times at or below epsilon.
package collision
