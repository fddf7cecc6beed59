// Package display renders kernel.Procdump output the way the donor CLI
// rendered its process listings: a buffered tablewriter.Table.
package display

import (
	"bytes"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/arctir/kcore/kernel"
)

// Procdump renders rows the way the donor's createTableListOutput built a
// []string per process and handed the whole batch to tablewriter in one
// AppendBulk/Render pass. Columns past PID/Name/State depend on policy,
// since PBS and MLFQ track disjoint accounting fields (kernel.ProcSnapshot
// leaves the other policy's fields at their zero value).
func Procdump(rows []kernel.ProcSnapshot, policy kernel.Policy) []byte {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)

	switch policy {
	case kernel.PolicyPBS:
		table.SetHeader([]string{"PID", "NAME", "STATE", "PRIORITY", "RUNTIME", "WAITTIME", "N_SCHED"})
		bulk := make([][]string, 0, len(rows))
		for _, r := range rows {
			bulk = append(bulk, []string{
				strconv.Itoa(r.Pid),
				r.Name,
				r.State.String(),
				strconv.Itoa(r.DynamicPriority),
				strconv.FormatInt(r.RunTime, 10),
				strconv.FormatInt(r.WaitTime, 10),
				strconv.Itoa(r.TimesScheduled),
			})
		}
		table.AppendBulk(bulk)
	case kernel.PolicyMLFQ:
		table.SetHeader([]string{"PID", "NAME", "STATE", "QUEUE", "RUNTIME", "WAITTIME", "N_DISPATCH"})
		bulk := make([][]string, 0, len(rows))
		for _, r := range rows {
			bulk = append(bulk, []string{
				strconv.Itoa(r.Pid),
				r.Name,
				r.State.String(),
				strconv.Itoa(r.Queue),
				strconv.FormatInt(r.MLFQRunTime, 10),
				strconv.FormatInt(r.MLFQWaitTime, 10),
				strconv.Itoa(r.DispatchCount),
			})
		}
		table.AppendBulk(bulk)
	default:
		table.SetHeader([]string{"PID", "NAME", "STATE"})
		bulk := make([][]string, 0, len(rows))
		for _, r := range rows {
			bulk = append(bulk, []string{
				strconv.Itoa(r.Pid),
				r.Name,
				r.State.String(),
			})
		}
		table.AppendBulk(bulk)
	}

	table.Render()
	return buf.Bytes()
}
