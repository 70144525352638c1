package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// priceListItem is the part of a GetProducts PriceList entry we read.
// OnDemand terms stay raw so the first term keeps its document order.
type priceListItem struct {
	Product struct {
		Attributes struct {
			InstanceType    string `json:"instanceType"`
			OperatingSystem string `json:"operatingSystem"`
			PreInstalledSw  string `json:"preInstalledSw"`
		} `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand json.RawMessage `json:"OnDemand"`
	} `json:"terms"`
}

type skuOffer struct {
	PriceDimensions json.RawMessage `json:"priceDimensions"`
}

type priceDimension struct {
	Unit         string            `json:"unit"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
}

// ExtractInstancePrice reads the instance type and on-demand hourly USD price
// from one PriceList entry. Entries that are not plain Linux, carry
// pre-installed software or lack a price are skipped with ok=false.
func ExtractInstancePrice(priceJSON string) (instanceType string, price float64, ok bool) {
	var item priceListItem
	if err := json.Unmarshal([]byte(priceJSON), &item); err != nil {
		return "", 0, false
	}

	attrs := item.Product.Attributes
	if attrs.InstanceType == "" {
		return "", 0, false
	}

	// SQL Server and other bundled licenses are priced as separate Linux products
	if attrs.PreInstalledSw != "" && attrs.PreInstalledSw != "NA" {
		return "", 0, false
	}

	if attrs.OperatingSystem != "Linux" {
		return "", 0, false
	}

	price, err := ExtractOnDemandPrice(item.Terms.OnDemand)
	if err != nil {
		return "", 0, false
	}

	return attrs.InstanceType, price, true
}

// ExtractOnDemandPrice extracts the USD price of the first price dimension
// of the first on-demand term.
func ExtractOnDemandPrice(onDemand json.RawMessage) (float64, error) {
	offerJSON, err := firstObjectValue(onDemand)
	if err != nil {
		return 0, fmt.Errorf("no SKU offer found: %w", err)
	}

	var offer skuOffer
	if err := json.Unmarshal(offerJSON, &offer); err != nil {
		return 0, fmt.Errorf("SKU offer is not an object: %w", err)
	}

	dimensionJSON, err := firstObjectValue(offer.PriceDimensions)
	if err != nil {
		return 0, fmt.Errorf("no price dimension found: %w", err)
	}

	var dimension priceDimension
	if err := json.Unmarshal(dimensionJSON, &dimension); err != nil {
		return 0, fmt.Errorf("price dimension is not an object: %w", err)
	}

	usd, ok := dimension.PricePerUnit["USD"]
	if !ok || usd == "" {
		return 0, fmt.Errorf("USD price not found")
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}

	return price, nil
}

// firstObjectValue returns the value of the first key of a JSON object
func firstObjectValue(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("field is missing")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("field is not an object")
	}

	if !dec.More() {
		return nil, fmt.Errorf("object is empty")
	}

	// Key
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
