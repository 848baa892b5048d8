package main

import (
	"github.com/ValentinKolb/mongoBridge/cmd"
)

func main() {
	cmd.Execute()
}
