// Package domain wraps the impact engine in the messages the service consumes
// and produces.
//
// # Requests
//
// Each source message is a JSON [AssessmentRequest]:
//
//	{
//	  "id": "optional, generated when absent",
//	  "requested_at": "RFC 3339, defaults to the message timestamp",
//	  "specification": {"diameter": 20, "density": 3000, "velocity": 19000, "angle": 45,
//	                    "latitude": 55.15, "longitude": 61.41},
//	  "water": true
//	}
//
// Specification fields follow [impact.Specification]: SI units, angle in
// degrees from the horizontal. Mass is optional and derived from a sphere
// of the given diameter and density.
//
// # Surface resolution
//
// Whether the impactor lands in water is decided in this order:
//
//  1. The request's top-level "water" field, when present.
//  2. A [SurfaceClassifier] looking up the impact coordinates, when configured.
//  3. The specification's own "water" flag.
//
// A classifier failure falls back to (3) and marks the surface "failed" so
// downstream consumers can tell the flag was not verified.
//
// # Keys
//
// Output messages are keyed by a SHA-256 hash of the physical inputs, so
// identical impactors land on the same partition and replays overwrite rather
// than duplicate. Request IDs are caller-supplied or random UUIDs. See
// [SpecificationKey].
package domain
