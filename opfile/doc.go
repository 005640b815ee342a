// Package opfile parses orienteering problem instances in the TSPLIB-style
// OP format.
//
// Supported headers: NAME, TYPE, COMMENT, DIMENSION, COST_LIMIT,
// EDGE_WEIGHT_TYPE (EUC_2D or EXPLICIT) and EDGE_WEIGHT_FORMAT (FULL_MATRIX,
// UPPER_ROW or LOWER_DIAG_ROW). Supported sections: NODE_COORD_SECTION,
// DISPLAY_DATA_SECTION, NODE_SCORE_SECTION, EDGE_WEIGHT_SECTION and
// DEPOT_SECTION. Unknown headers are skipped so instance files from
// different OP libraries load without preprocessing.
//
// Vertex ids are 1-based in the file and 0-based in the returned graph; the
// depot is file vertex 1. COST_LIMIT becomes the travel-time budget.
// Explicit-matrix instances still need coordinates (either section works)
// because the geometric index and the clustering operate on them.
package opfile
