// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the captured slog handler, the
// in-memory workbook builder and multipart request helpers used by the
// package tests.
package shared
