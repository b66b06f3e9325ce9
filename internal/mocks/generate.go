package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/schedule --output domain/schedule --outpkg schedulemock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/odds --output domain/odds --outpkg oddsmock --filename provider_mock.go
