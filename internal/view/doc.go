// Package view is a small in-process document model the browser renders into.
//
// It mirrors the handful of DOM operations the tree browser needs: elements
// with an id, a class list, text and children; lookup by id and by class;
// visibility toggling; a breadcrumb display and a selected-value field.
// Front ends (the terminal UI, tests) read the document after each update.
package view
