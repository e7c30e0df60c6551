// Command pngcat is an interactive REPL around image/png: load a PNG
// file, decode it with a chosen scale, and print how many rows were
// decoded.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"tinygo.org/x/pngstream/image/png"
)

func main() {
	fmt.Println("pngcat - type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	scale := 1

	for {
		fmt.Print("pngcat> ")
		if !scanner.Scan() {
			return
		}
		args, err := shlex.Split(scanner.Text())
		if err != nil || len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("commands: load <file>, scale <1|2|4>, info <file>, quit")
		case "scale":
			if len(args) != 2 {
				fmt.Println("usage: scale <1|2|4>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("invalid scale:", args[1])
				continue
			}
			scale = n
		case "info":
			if len(args) != 2 {
				fmt.Println("usage: info <file>")
				continue
			}
			runInfo(args[1])
		case "load":
			if len(args) != 2 {
				fmt.Println("usage: load <file>")
				continue
			}
			runLoad(args[1], scale)
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", strings.Join(args, " "))
		}
	}
}

func runInfo(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	hdr, err := png.Info(data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%dx%d bit-depth=%d color-type=%d\n", hdr.Width, hdr.Height, hdr.BitDepth, hdr.ColorType)
}

func runLoad(path string, scale int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rows := 0
	err = png.Decode(data, png.Options{Scale: scale}, func(y, width int, pixels []uint16) error {
		rows++
		return nil
	})
	if err != nil {
		fmt.Println("decode failed:", err)
		return
	}
	fmt.Printf("decoded %d rows at scale %d\n", rows, scale)
}
