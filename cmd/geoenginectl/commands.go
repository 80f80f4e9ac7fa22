package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"geoengine/internal/dag"
	"geoengine/internal/factory"
)

const usage = `commands:
  point <name> <x> <y>              add a free point
  line <name> <p1> <p2> [infinite]  add a line/segment through two points
  circle <name> <center> <radius>   add a circle from a center point and radius
  circle3p <name> <p1> <p2> <p3>    add a circumscribed circle
  move <name> <x> <y>               move a free point
  delete <name>                     deactivate a node
  pan <ox> <oy> <zoom>               pan/zoom the viewport
  undo / redo
  render                            run one commit-solve-plot cycle
  show <name>                       print a node's cached result
  help`

// dispatch parses one REPL line and drives the Engine API; ids maps
// user-chosen names to the NodeIDs the factory hands back, since the
// Engine API itself works in terms of NodeID (spec §6).
func dispatch(ctx context.Context, eng *factory.Engine, ids map[string]dag.NodeID, line string) error {
	fields := strings.Fields(line)
	verb := fields[0]
	args := fields[1:]

	switch verb {
	case "help":
		fmt.Println(usage)
		return nil
	case "point":
		return cmdPoint(eng, ids, args)
	case "line":
		return cmdLine(eng, ids, args)
	case "circle":
		return cmdCircle(eng, ids, args)
	case "circle3p":
		return cmdCircle3P(eng, ids, args)
	case "move":
		return cmdMove(eng, ids, args)
	case "delete":
		return cmdDelete(eng, ids, args)
	case "pan":
		return cmdPan(eng, args)
	case "undo":
		eng.Undo()
		return nil
	case "redo":
		eng.Redo()
		return nil
	case "render":
		return eng.Render(ctx)
	case "show":
		return cmdShow(eng, ids, args)
	default:
		return fmt.Errorf("unknown command %q (type 'help')", verb)
	}
}

func cmdPoint(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: point <name> <x> <y>")
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	ids[args[0]] = eng.AddPoint(x, y)
	return nil
}

func cmdLine(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: line <name> <p1> <p2> [infinite]")
	}
	p1, ok := ids[args[1]]
	if !ok {
		return fmt.Errorf("unknown point %q", args[1])
	}
	p2, ok := ids[args[2]]
	if !ok {
		return fmt.Errorf("unknown point %q", args[2])
	}
	infinite := len(args) > 3 && args[3] == "infinite"
	ids[args[0]] = eng.AddLine(p1, p2, infinite)
	return nil
}

func cmdCircle(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: circle <name> <center> <radius>")
	}
	center, ok := ids[args[1]]
	if !ok {
		return fmt.Errorf("unknown point %q", args[1])
	}
	radius, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	id, err := eng.AddCircle(center, radius)
	if err != nil {
		return err
	}
	ids[args[0]] = id
	return nil
}

func cmdCircle3P(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: circle3p <name> <p1> <p2> <p3>")
	}
	var pts [3]dag.NodeID
	for i := 0; i < 3; i++ {
		id, ok := ids[args[i+1]]
		if !ok {
			return fmt.Errorf("unknown point %q", args[i+1])
		}
		pts[i] = id
	}
	ids[args[0]] = eng.AddCircle3P(pts[0], pts[1], pts[2])
	return nil
}

func cmdMove(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: move <name> <x> <y>")
	}
	id, ok := ids[args[0]]
	if !ok {
		return fmt.Errorf("unknown node %q", args[0])
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	return eng.MovePoint(id, x, y)
}

func cmdDelete(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}
	id, ok := ids[args[0]]
	if !ok {
		return fmt.Errorf("unknown node %q", args[0])
	}
	return eng.Delete(id)
}

func cmdShow(eng *factory.Engine, ids map[string]dag.NodeID, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <name>")
	}
	id, ok := ids[args[0]]
	if !ok {
		return fmt.Errorf("unknown node %q", args[0])
	}
	n := eng.Node(id)
	if n == nil {
		return fmt.Errorf("node %q no longer exists", args[0])
	}
	fmt.Printf("%s: active=%v valid=%v result=(%.4f, %.4f, %.4f) points=%d\n",
		args[0], n.Active, n.Result.IsValid, n.Result.X, n.Result.Y, n.Result.R, n.CurrentPointCount)
	return nil
}

func cmdPan(eng *factory.Engine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: pan <offset_x> <offset_y> <zoom>")
	}
	ox, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	oy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	zoom, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	eng.PanZoom(ox, oy, zoom)
	return nil
}
