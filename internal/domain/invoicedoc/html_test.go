package invoicedoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML_PaidInvoice(t *testing.T) {
	out, err := RenderHTML(Build(paidInvoice(), Spanish))
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<html lang="es">`)
	assert.Contains(t, html, "<title>Factura INV-001</title>")
	assert.Contains(t, html, "<h1>FACTURA</h1>")
	assert.Contains(t, html, "<p><strong>Fecha:</strong> 05 de marzo de 2024</p>")
	assert.Contains(t, html, `<td class="text-right">9.99</td>`)
	assert.Contains(t, html, "<p><strong>Estado:</strong> Pagada</p>")
	assert.Contains(t, html, "<p><strong>Fecha de pago:</strong> 07 de marzo de 2024</p>")
	assert.Contains(t, html, "Gracias por su confianza en Lugasa")
}

func TestRenderHTML_NoPaidLineWhenUnpaid(t *testing.T) {
	inv := paidInvoice()
	inv.Status = "PENDING"
	inv.PaidAt = nil

	out, err := RenderHTML(Build(inv, Spanish))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Pendiente")
	assert.NotContains(t, string(out), "Fecha de pago")
}

func TestRenderHTML_EscapesText(t *testing.T) {
	inv := paidInvoice()
	inv.User.Name = `<img src=x onerror="alert(1)">`

	out, err := RenderHTML(Build(inv, Spanish))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<img")
	assert.Contains(t, string(out), "&lt;img")
}

func TestRenderHTML_ByteIdentical(t *testing.T) {
	inv := paidInvoice()
	a, err := RenderHTML(Build(inv, Spanish))
	require.NoError(t, err)
	b, err := RenderHTML(Build(inv, Spanish))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
