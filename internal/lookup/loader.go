package lookup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadFile reads addresses from path: one per line, or the first column of
// a tab-separated file. Blank lines, '#' comments and a header whose first
// column is "address" are skipped.
func LoadFile(path string, falsePositiveRate float64) (*AddressSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening address file: %w", err)
	}
	defer file.Close()

	addrs, err := readAddresses(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromList(addrs, falsePositiveRate), nil
}

// FromList builds a set from addresses.
func FromList(addrs []string, falsePositiveRate float64) *AddressSet {
	set := NewAddressSet(len(addrs), falsePositiveRate)
	for _, a := range addrs {
		set.Add(a)
	}
	return set
}

func readAddresses(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var addrs []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, _, _ := strings.Cut(line, "\t")
		addr = strings.TrimSpace(addr)
		if strings.EqualFold(addr, "address") {
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs, scanner.Err()
}
