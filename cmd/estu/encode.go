package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/estu"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/magestack"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

var (
	encodeFile        string
	encodePaymentRef  string
	encodeMagestack   string
	encodeStoreNumber string
	encodeCustomerID  string
	encodeClerkID     string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a shipment as an order sheet",
	Long: `Encode the first shipment in a ShipStation /shipments response, or a
single shipment object, and print the order sheet to stdout.

Examples:
  estu encode --file shipment.json --payment-ref 123:5.0
  estu encode --file shipments.json --magestack-url https://magestack.example.com
  cat shipment.json | estu encode --payment-ref 123:5.0`,
	RunE: runEncode,
}

func init() {
	defaults := estu.DefaultConfig()
	encodeCmd.Flags().StringVarP(&encodeFile, "file", "f", "-", "Shipment JSON file, - for stdin")
	encodeCmd.Flags().StringVar(&encodePaymentRef, "payment-ref", "", "Payment reference as entity_id:shipping")
	encodeCmd.Flags().StringVar(&encodeMagestack, "magestack-url", "", "Look the payment reference up in Magestack instead")
	encodeCmd.Flags().StringVar(&encodeStoreNumber, "store", defaults.StoreNumber, "Eagle store number")
	encodeCmd.Flags().StringVar(&encodeCustomerID, "customer", defaults.CustomerID, "Eagle customer id")
	encodeCmd.Flags().StringVar(&encodeClerkID, "clerk", defaults.ClerkID, "Eagle clerk id")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	payments, err := paymentLookup(encodePaymentRef, encodeMagestack)
	if err != nil {
		return err
	}

	encoder, err := estu.NewEncoder(estu.Config{
		StoreNumber: encodeStoreNumber,
		CustomerID:  encodeCustomerID,
		ClerkID:     encodeClerkID,
	}, payments)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, encodeFile)
	if err != nil {
		return err
	}
	defer closeIn()

	s, err := readShipment(in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := encoder.EncodeOrderSheet(ctx, s)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", s.OrderNumber, err)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), doc)
	return err
}

func paymentLookup(ref, magestackURL string) (estu.PaymentLookup, error) {
	switch {
	case ref != "" && magestackURL != "":
		return nil, fmt.Errorf("--payment-ref and --magestack-url are mutually exclusive")
	case ref != "":
		parsed, err := parsePaymentRef(ref)
		if err != nil {
			return nil, err
		}
		return estu.PaymentLookupFunc(func(context.Context, string) (estu.PaymentReference, error) {
			return parsed, nil
		}), nil
	case magestackURL != "":
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg.Magestack.BaseURL = magestackURL
		return magestack.NewClient(cfg.Magestack, logger.NewNop()), nil
	default:
		return nil, fmt.Errorf("one of --payment-ref or --magestack-url is required")
	}
}

func parsePaymentRef(ref string) (estu.PaymentReference, error) {
	entityID, shipping, ok := strings.Cut(ref, ":")
	if !ok || entityID == "" || shipping == "" {
		return estu.PaymentReference{}, fmt.Errorf("payment reference %q is not entity_id:shipping", ref)
	}
	return estu.PaymentReference{EntityID: entityID, Shipping: shipping}, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// readShipment accepts either a /shipments envelope or a bare shipment.
func readShipment(r io.Reader) (*shipment.Shipment, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read shipment: %w", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode shipment: %w", err)
	}

	if _, ok := envelope["shipments"]; ok {
		var list shipment.List
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode shipments: %w", err)
		}
		if len(list.Shipments) == 0 {
			return nil, shipment.ErrNoShipments
		}
		return &list.Shipments[0], nil
	}

	var s shipment.Shipment
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode shipment: %w", err)
	}
	return &s, nil
}
