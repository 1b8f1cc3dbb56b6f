package geometry

// Tolerance (2^-10) is the numerical slack used to inflate bounding boxes
// and to accept ray hits that land just outside a cell's nominal bound.
const Tolerance = 1.0 / 1024

// Epsilon (2^-20) is the determinant threshold below which a
// Möller-Trumbore ray/triangle test is treated as parallel (a miss).
const Epsilon = 1.0 / 1048576
