package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	cl := NewCLI()
	if err := cl.Exec(); err != nil {
		log.Fatal("dispatchdemo: ", err)
	}
}
