// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package common

import (
	"io"

	"github.com/pterm/pterm"
)

type TerminalPrinter struct {
	writer io.Writer
}

func NewTerminalPrinter(writer io.Writer) *TerminalPrinter {
	return &TerminalPrinter{writer: writer}
}

func (tp *TerminalPrinter) Writer() io.Writer {
	return tp.writer
}

func (tp *TerminalPrinter) Println(m ...any) {
	pterm.Fprintln(tp.writer, m...)
}

func (tp *TerminalPrinter) PrintHeader(m ...any) {
	pterm.Fprintln(tp.writer, pterm.FgLightCyan.Sprint(m...))
}

func (tp *TerminalPrinter) PrintSuccessf(format string, a ...any) {
	pterm.Success.WithWriter(tp.writer).Printfln(format, a...)
}

func (tp *TerminalPrinter) PrintInfof(format string, a ...any) {
	pterm.Info.WithWriter(tp.writer).Printfln(format, a...)
}

func (tp *TerminalPrinter) PrintWarningf(format string, a ...any) {
	pterm.Warning.WithWriter(tp.writer).Printfln(format, a...)
}

func (tp *TerminalPrinter) PrintTreeListItems(items []string) {
	list := make([]pterm.BulletListItem, 0, len(items))
	for _, item := range items {
		list = append(list, pterm.BulletListItem{Level: 0, Text: item})
	}
	if err := pterm.DefaultBulletList.WithWriter(tp.writer).WithItems(list).Render(); err != nil {
		pterm.Fprintln(tp.writer, items)
	}
}

func (tp *TerminalPrinter) PrintTableWithHeaders(table [][]string) {
	if err := pterm.DefaultTable.WithWriter(tp.writer).WithHasHeader().WithData(table).Render(); err != nil {
		pterm.Fprintln(tp.writer, table)
	}
}
