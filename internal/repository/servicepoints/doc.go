// Package servicepoints loads and exposes the emergency-service point
// datasets (hospitals, police stations) as immutable in-memory tables.
//
// Datasets are tabular files (CSV or XLSX) whose column names differ per
// category but map onto the same latitude/longitude/name shape. Loading
// happens once at process start; every problem short of a programming error
// is reported as a non-fatal LoadWarning so the rest of the pipeline can
// keep working with whichever tables did load.
package servicepoints
