/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/codetran/internal/examples"
)

var examplesCmd = &cobra.Command{
	Use:   "examples [n]",
	Short: "List example problems, or print example n",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid example number %q", args[0])
			}
			p, ok := examples.Get(n - 1)
			if !ok {
				return fmt.Errorf("no example %d (have %d)", n, len(examples.All()))
			}
			fmt.Println(p.Code)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tLANGUAGE\tTITLE")
		for i, p := range examples.All() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, p.Language, p.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
