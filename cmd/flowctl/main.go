// Command flowctl is an interactive REPL over an in-memory flow.Table,
// useful for manually exercising add/delete/query behavior during
// development. It is scaffolding, not a source of core semantics.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/ofcore/flowtable/internal/flow"
	"github.com/ofcore/flowtable/internal/ofmodel"
)

const historyFile = ".flowctl_history"

func main() {
	table, err := flow.New(flow.Config{
		MaxEntries: 1024,
		Duplicator: ofmodel.Duplicator{},
		Builder:    ofmodel.Builder{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "flowctl:", err)
		os.Exit(1)
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Println("flowctl: type 'help' for commands, 'quit' to exit")

	for {
		input, err := line.Prompt("flowctl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				break
			}

			fmt.Fprintln(os.Stderr, "flowctl:", err)

			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if !dispatch(table, input) {
			break
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

// dispatch runs one REPL command and reports whether the loop should
// continue.
func dispatch(table *flow.Table, input string) bool {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		printHelp()
	case "add":
		cmdAdd(table, args)
	case "del":
		cmdDel(table, args)
	case "get":
		cmdGet(table, args)
	case "query":
		cmdQuery(table, args)
	case "stats":
		cmdStats(table)
	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}

	return true
}

func printHelp() {
	fmt.Println(`commands:
  add <id> <ip-dst> <priority> <outport>   add a flow exact-matching ip-dst
  del <id>                                 delete a flow by ID
  get <id>                                 look up a flow by ID
  query <ip-dst>                           strict-match query on ip-dst
  stats                                    print table status and index stats
  quit                                     exit`)
}

func cmdAdd(table *flow.Table, args []string) {
	if len(args) != 4 {
		fmt.Println("usage: add <id> <ip-dst> <priority> <outport>")

		return
	}

	id, ipDst, priority, outPort, err := parseAddArgs(args)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	add := &ofmodel.Add{
		Match:    ofmodel.Match{IPDst: ipDst, Wildcards: ofmodel.WildcardAll &^ ofmodel.WildcardIPDst},
		Priority: priority,
		Actions:  []ofmodel.Action{{Type: ofmodel.ActionOutput, OutPort: outPort}},
	}

	e, err := table.Add(id, add)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Printf("added flow id=%d priority=%d match=%x\n", e.ID, e.Priority, e.Match)
}

func parseAddArgs(args []string) (id uint64, ipDst uint32, priority uint16, outPort uint32, err error) {
	id, err = strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid id: %w", err)
	}

	ip64, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid ip-dst: %w", err)
	}

	ipDst = uint32(ip64)

	p64, err := strconv.ParseUint(args[2], 0, 16)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid priority: %w", err)
	}

	priority = uint16(p64)

	port64, err := strconv.ParseUint(args[3], 0, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid outport: %w", err)
	}

	outPort = uint32(port64)

	return id, ipDst, priority, outPort, nil
}

func cmdDel(table *flow.Table, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: del <id>")

		return
	}

	id, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	if err := table.DeleteByID(id); err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("deleted")
}

func cmdGet(table *flow.Table, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <id>")

		return
	}

	id, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	e, found := table.Lookup(id)
	if !found {
		fmt.Println("not found")

		return
	}

	fmt.Printf("id=%d priority=%d cookie=%#x ports=%v\n", e.ID, e.Priority, e.Cookie, e.OutputPorts)
}

func cmdQuery(table *flow.Table, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: query <ip-dst>")

		return
	}

	ip64, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	match := ofmodel.Match{IPDst: uint32(ip64), Wildcards: ofmodel.WildcardAll &^ ofmodel.WildcardIPDst}

	results := table.QueryAll(flow.Query{
		Mode:    flow.Strict,
		Match:   match.Encode(),
		TableID: flow.AnyTableID,
		OutPort: flow.WildcardOutPort,
	}, ofmodel.Predicates{})

	fmt.Printf("%d match(es)\n", len(results))

	for _, e := range results {
		fmt.Printf("  id=%d priority=%d\n", e.ID, e.Priority)
	}
}

func cmdStats(table *flow.Table) {
	st := table.Status()
	fmt.Printf("live=%d free=%d adds=%d deletes=%d modifies=%d table_full_errors=%d\n",
		st.LiveCount, table.FreeCount(), st.Adds, st.Deletes, st.Modifies, st.TableFullErrors)
	fmt.Printf("id_index: %+v\n", table.IDIndexStats())
	fmt.Printf("priority_index: %+v\n", table.PriorityIndexStats())
	fmt.Printf("match_index: %+v\n", table.MatchIndexStats())
}
