// Package ui renders console output for the muchos CLI: styled log
// lines, doctor reports and interactive confirmations.
//
// Styling uses a lipgloss renderer bound to the destination writer, so
// colors are only emitted when that writer is a terminal.
package ui
