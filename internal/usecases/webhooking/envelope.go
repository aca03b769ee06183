package webhooking

import (
	"encoding/json"
	"errors"

	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// ErrUnknownEnvelope indica que o corpo do evento de estoque não casou
// com nenhum dos formatos conhecidos.
var ErrUnknownEnvelope = errors.New("formato de payload de estoque desconhecido")

// O Bling emite eventos de estoque em mais de um formato dependendo da
// versão e do tipo de gatilho. Cada formato conhecido tem um parser
// próprio, tentado em ordem de prioridade; o primeiro que casar vence.
type stockEnvelopeParser func(data []byte) ([]domain.StockEventRecord, bool)

var stockEnvelopeParsers = []stockEnvelopeParser{
	parseProductStockEnvelope,
	parseRetornoEstoquesEnvelope,
	parseFlatBalanceEnvelope,
}

// ParseStockEnvelope normaliza o payload de um evento de estoque em
// registros {sku, quantidade, nome, depósitos}.
func ParseStockEnvelope(data []byte) ([]domain.StockEventRecord, error) {
	for _, parse := range stockEnvelopeParsers {
		if records, ok := parse(data); ok {
			return records, nil
		}
	}
	return nil, ErrUnknownEnvelope
}

// Formato 1: objeto único com produto e saldo agregado.
//
//	{"produto": {"codigo": "SKU-1", "nome": "..."}, "estoque": {"saldoFisicoTotal": 10, "depositos": [...]}}
type productStockEnvelope struct {
	Produto *struct {
		Codigo string `json:"codigo"`
		Nome   string `json:"nome"`
	} `json:"produto"`
	Estoque *struct {
		SaldoFisicoTotal float64 `json:"saldoFisicoTotal"`
		Depositos        []struct {
			ID    int64   `json:"id"`
			Saldo float64 `json:"saldoFisico"`
		} `json:"depositos"`
	} `json:"estoque"`
}

func parseProductStockEnvelope(data []byte) ([]domain.StockEventRecord, bool) {
	var envelope productStockEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	if envelope.Produto == nil || envelope.Produto.Codigo == "" || envelope.Estoque == nil {
		return nil, false
	}

	record := domain.StockEventRecord{
		SKU:      envelope.Produto.Codigo,
		Name:     envelope.Produto.Nome,
		Quantity: envelope.Estoque.SaldoFisicoTotal,
	}
	for _, deposito := range envelope.Estoque.Depositos {
		record.Warehouses = append(record.Warehouses, domain.WarehouseStock{
			WarehouseID: deposito.ID,
			Quantity:    deposito.Saldo,
		})
	}

	return []domain.StockEventRecord{record}, true
}

// Formato 2: envelope de retorno com lista de estoques.
//
//	{"retorno": {"estoques": [{"codigo": "SKU-1", "nome": "...", "estoqueAtual": 10}]}}
type retornoEstoquesEnvelope struct {
	Retorno *struct {
		Estoques []struct {
			Codigo       string  `json:"codigo"`
			Nome         string  `json:"nome"`
			EstoqueAtual float64 `json:"estoqueAtual"`
		} `json:"estoques"`
	} `json:"retorno"`
}

func parseRetornoEstoquesEnvelope(data []byte) ([]domain.StockEventRecord, bool) {
	var envelope retornoEstoquesEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	if envelope.Retorno == nil || len(envelope.Retorno.Estoques) == 0 {
		return nil, false
	}

	records := make([]domain.StockEventRecord, 0, len(envelope.Retorno.Estoques))
	for _, estoque := range envelope.Retorno.Estoques {
		if estoque.Codigo == "" {
			continue
		}
		records = append(records, domain.StockEventRecord{
			SKU:      estoque.Codigo,
			Name:     estoque.Nome,
			Quantity: estoque.EstoqueAtual,
		})
	}
	if len(records) == 0 {
		return nil, false
	}

	return records, true
}

// Formato 3: lista plana de saldos.
//
//	[{"sku": "SKU-1", "saldo": 10}] ou {"sku": "SKU-1", "saldo": 10}
type flatBalanceItem struct {
	SKU   string  `json:"sku"`
	Saldo float64 `json:"saldo"`
}

func parseFlatBalanceEnvelope(data []byte) ([]domain.StockEventRecord, bool) {
	var items []flatBalanceItem
	if err := json.Unmarshal(data, &items); err != nil {
		var single flatBalanceItem
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, false
		}
		items = []flatBalanceItem{single}
	}

	records := make([]domain.StockEventRecord, 0, len(items))
	for _, item := range items {
		if item.SKU == "" {
			continue
		}
		records = append(records, domain.StockEventRecord{
			SKU:      item.SKU,
			Quantity: item.Saldo,
		})
	}
	if len(records) == 0 {
		return nil, false
	}

	return records, true
}
