package main

// @title           Gestão de Obras API
// @version         1.0
// @description     API de compras, orçamentos e parcelas de materiais para obras

// @contact.name   Suporte
// @contact.email  suporte@gestaoobras.com.br

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
