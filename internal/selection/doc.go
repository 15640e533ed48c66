// Package selection keeps the frame selection set honest against what the
// backend currently reports.
//
// Membership is pruned on three occasions: whenever a freshly fetched frame
// page shows a selected frame in a state that can no longer be selected,
// whenever focus moves to another video, and just before a training run is
// submitted. Small submissions are re-verified against the backend first;
// large ones are submitted as-is and left to server-side validation.
package selection
