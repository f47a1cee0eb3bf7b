package transaction

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type CsvRenderer interface {
	Render(transactions []Transaction) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// Render produces a CSV listing: one header row, one row per transaction,
// expenses with a leading minus so spreadsheet sums come out right.
func (t *CsvRendererImpl) Render(transactions []Transaction) (string, error) {
	data := make([][]string, 0, len(transactions)+1)
	data = append(data, []string{"Date", "Kind", "Category", "Amount", "Description"})

	for _, tx := range transactions {
		amount := tx.Amount
		if tx.Kind == "expense" {
			amount = -amount
		}
		data = append(data, []string{
			tx.Date.Format("02/01/2006"),
			string(tx.Kind),
			tx.Category.Name,
			strconv.FormatFloat(amount, 'f', 2, 64),
			tx.Description,
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
