// Package main is the rdbi-cli command-line tool: a serve command that
// reproduces the original stub network listener, and a demo command that
// exercises the embedding API end to end against an in-memory table.
package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"

	"rdbi"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rdbi-cli",
		Short: "rdbi embeddable storage engine command-line tool",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(demoCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept connections one at a time and print each one's bytes to stdout",
		Long: `serve reproduces the original rudibi-server stub listener: it accepts
one TCP connection at a time, reads it to EOF, and writes the received
bytes to stdout. It does not speak rdbi's predicate language over the
wire — the embedding API in this module is Go-native, not a text
protocol, so serve exists only as a connectivity smoke test.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:1337", "address to listen on")
	return cmd
}

func runServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rdbi-cli: listen on %s: %w", addr, err)
	}
	defer listener.Close()

	log.Printf("rdbi-cli serve listening on %s", addr)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("rdbi-cli: accept: %w", err)
		}
		handleConnection(conn)
	}
}

func handleConnection(conn net.Conn) {
	defer conn.Close()
	buf, err := io.ReadAll(conn)
	if err != nil {
		log.Printf("rdbi-cli: read connection: %v", err)
		return
	}
	os.Stdout.Write(buf)
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a small embedded fruits example and print the results",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	db := rdbi.NewDatabase()
	err := db.NewTable("fruits", []rdbi.Column{
		{Name: "id", DType: rdbi.U32()},
		{Name: "name", DType: rdbi.Utf8(20)},
	}, rdbi.InMemoryStorage())
	if err != nil {
		return fmt.Errorf("rdbi-cli: new table: %w", err)
	}

	rows := []rdbi.Row{
		rdbi.RowOfColumns([][]byte{u32le(100), []byte("apple")}),
		rdbi.RowOfColumns([][]byte{u32le(200), []byte("banana")}),
		rdbi.RowOfColumns([][]byte{u32le(300), []byte("banana")}),
		rdbi.RowOfColumns([][]byte{u32le(400), []byte("cherry")}),
	}
	n, err := db.Insert("fruits", []string{"id", "name"}, rows)
	if err != nil {
		return fmt.Errorf("rdbi-cli: insert: %w", err)
	}
	fmt.Printf("inserted %d rows\n", n)

	matches, err := db.Select("fruits",
		[]rdbi.Value{rdbi.ColumnRef("id"), rdbi.ColumnRef("name")},
		rdbi.Eq(rdbi.ColumnRef("name"), rdbi.Const(rdbi.Utf8Value("banana"))))
	if err != nil {
		return fmt.Errorf("rdbi-cli: select: %w", err)
	}

	fmt.Println("rows where name = \"banana\":")
	for _, r := range matches {
		id := r.GetColumn(0)
		name := r.GetColumn(1)
		fmt.Printf("  id=%d name=%s\n", le32(id), name)
	}
	return nil
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
