package main

import (
	"fmt"
	"time"
)

func main() {
	fmt.Printf("aucs build %s UTC", time.Now().UTC().Format("2006-01-02 15:04"))
}
