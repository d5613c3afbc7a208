package repository

import "errors"

var ErrNotFound = errors.New("registro não encontrado")

// maxRowsPerStatement limita o número de linhas por INSERT em lote
const maxRowsPerStatement = 500

func chunkBounds(total, size int) [][2]int {
	bounds := make([][2]int, 0, total/size+1)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
