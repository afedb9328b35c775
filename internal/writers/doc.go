// Package writers turns a run report into serialized output.
//
// Design:
//   • Writers own all presentation knowledge (text summary, JSON).
//   • Pipeline stays orchestration-only; schema stays domain-only.
//   • JSON goes through pkg/api (v1) for a stable wire format.
package writers
