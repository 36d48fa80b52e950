// SPDX-License-Identifier: MPL-2.0

package main

import cmd "ansiblectl/cmd/ansiblectl"

func main() {
	cmd.Execute()
}
