// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command arbor demonstrates the tree container: a raw guard-protocol
// walkthrough and an ordered-set session, each with an optional dump of
// the backing store.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arbortrees/arbor"
	"github.com/arbortrees/arbor/bst"
)

var (
	showNodes bool
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "arbor",
		Short: "Demos for the arbor tree container",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&showNodes, "nodes", false, "dump the backing store after each step")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log collection diagnostics")

	root.AddCommand(walkthroughCmd(), bstCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func walkthroughCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "walkthrough",
		Short: "Build, mutate and restructure a small binary tree by hand",
		Run: func(*cobra.Command, []string) {
			tree := arbor.New[int](2)
			fmt.Println(tree)

			sess := tree.Session()
			fmt.Println("put root 0, displaced:", sess.PutRootElem(0))
			{
				rootElem, children := sess.WriteRoot().Split()
				*rootElem += 1
				fmt.Println("put child 0 = 2:", report(children.PutChildElem(0, 2)))
				fmt.Println("put child 1 = 3:", report(children.PutChildElem(1, 3)))
				fmt.Println("put child 0 = 4:", report(children.PutChildElem(0, 4)))
				fmt.Println("put child 2 = 7:", report(children.PutChildElem(2, 7)))
			}
			sess.Close()
			fmt.Println(tree)
			dump(tree)

			// Re-hang the right subtree below the left child.
			sess = tree.Session()
			{
				_, children := sess.WriteRoot().Split()
				detached, _ := children.TakeChild(1)
				node0, _ := children.ChildWrite(0)
				node0Elem, node0Children := node0.Split()
				node0Children.PutChildTree(1, detached)
				*node0Elem = 42
			}
			sess.Close()
			fmt.Println(tree)
			dump(tree)
		},
	}
}

func bstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bst",
		Short: "Exercise the ordered set built on the container",
		Run: func(*cobra.Command, []string) {
			set := bst.New[int]()
			for _, elem := range []int{0, 2, -1, -2, 1} {
				set.Insert(elem)
			}
			fmt.Println("after inserts:", set.InOrder())
			fmt.Println(set.Tree())
			dump(set.Tree())

			set.Remove(0)
			fmt.Println("after remove 0:", set.InOrder())
			fmt.Println(set.Tree())
			dump(set.Tree())
		},
	}
}

// report renders a put result the way the library hands it out: the
// displacement flag, or the error for an out-of-range branch.
func report(displaced bool, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "displaced " + strconv.FormatBool(displaced)
}

func dump[T any](tree *arbor.Tree[T]) {
	if !showNodes {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Slot", "State", "Elem", "Parent", "Children"})
	for _, n := range tree.DebugNodes() {
		table.Append([]string{
			strconv.Itoa(n.Slot),
			n.State,
			n.Elem,
			n.Parent,
			strings.Join(n.Children, " "),
		})
	}
	table.Render()
}
