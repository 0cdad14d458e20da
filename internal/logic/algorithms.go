package logic

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/fcrypt/internal/encryption"
)

// Algorithms prints the supported cipher variants.
func Algorithms(out io.Writer) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Name", "Family", "Mode", "Kind", "Key", "Nonce", "Tag", "Default"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, desc := range encryption.Descriptors() {
		var isDefault string
		if desc.Name == encryption.DefaultName {
			isDefault = "yes"
		}

		table.Append([]string{
			strconv.Itoa(int(desc.ID)),
			desc.Name,
			desc.Family,
			desc.Mode,
			desc.Kind.String(),
			strconv.Itoa(desc.KeySize),
			strconv.Itoa(desc.NonceSize),
			strconv.Itoa(desc.TagSize),
			isDefault,
		})
	}

	table.Render()
}
