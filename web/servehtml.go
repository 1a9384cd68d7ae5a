package web

import (
	"net/http"
)

// ServeHTML serves the lane scoreboard page
func ServeHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

const page = `<!DOCTYPE html>
<html>
<head>
    <title>Bowling Lanes</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .board { max-width: 900px; margin: 0 auto; }
        table { border-collapse: collapse; width: 100%; margin: 20px 0; }
        td, th { border: 1px solid #333; text-align: center; padding: 4px; min-width: 40px; }
        td.name { text-align: left; min-width: 120px; }
        tr.current td.name { background-color: #FFD700; }
        .marks { font-family: monospace; }
        .pending { color: #999; }
        .controls { text-align: center; margin: 20px 0; }
        button { padding: 10px 14px; margin: 3px; font-size: 16px; }
        button:disabled { opacity: 0.3; }
        .status { padding: 10px; margin: 10px 0; background-color: #f0f0f0; border-radius: 5px; }
    </style>
</head>
<body>
    <div class="board">
        <h1>Bowling</h1>
        <div class="controls">
            <input id="names" placeholder="Alice, Bob" size="40">
            <button onclick="newGame()">New game</button>
        </div>
        <div class="status" id="status">Enter player names to open a lane.</div>
        <table id="scoreboard"></table>
        <div class="controls" id="pins"></div>
    </div>

    <script>
        let ws = null;
        let gameId = null;
        let gameState = null;

        async function newGame() {
            const players = document.getElementById('names').value
                .split(',').map(s => s.trim());
            const res = await fetch('/api/games', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ players: players.filter(s => s !== '').length ? players : [''] }),
            });
            const body = await res.json();
            if (!res.ok) {
                setStatus('Error: ' + body.error);
                return;
            }
            gameId = body.id;
            connect();
        }

        function connect() {
            if (ws) ws.close();
            const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            ws = new WebSocket(proto + location.host + '/api/games/' + gameId + '/ws');
            ws.onmessage = (event) => handleMessage(JSON.parse(event.data));
            ws.onclose = () => setStatus('Disconnected');
        }

        function handleMessage(message) {
            switch (message.type) {
                case 'game_state':
                    gameState = message.data;
                    render();
                    setStatus(gameState.currentPlayer + ', frame ' + gameState.currentFrameNumber);
                    break;
                case 'game_end':
                    gameState = message.data;
                    render();
                    setStatus('Game over');
                    break;
                case 'error':
                    setStatus('Error: ' + message.data);
                    break;
            }
        }

        function roll(pins) {
            ws.send(JSON.stringify({ type: 'roll', data: { pins: pins } }));
        }

        function marks(frame, tenth) {
            const out = [];
            let fresh = true, standing = 10;
            for (const r of frame.rolls) {
                if (fresh && r === 10) out.push('X');
                else if (!fresh && r === standing) out.push('/');
                else if (r === 0) out.push('-');
                else out.push(String(r));
                if (fresh && r < 10) { fresh = false; standing = 10 - r; }
                else { fresh = true; standing = 10; }
                if (!tenth && fresh) break;
            }
            return out.join(' ');
        }

        function render() {
            let html = '<tr><th>Player</th>';
            for (let i = 1; i <= 10; i++) html += '<th>' + i + '</th>';
            html += '<th>Total</th></tr>';
            gameState.players.forEach((p, idx) => {
                const current = !gameState.gameOver && idx === gameState.currentPlayerIndex;
                html += '<tr class="' + (current ? 'current' : '') + '"><td class="name">' + p.name + '</td>';
                p.frames.forEach((f, i) => {
                    const total = f.rolls.length ? f.runningTotal : '';
                    html += '<td><div class="marks">' + marks(f, i === 9) + '</div>' +
                        '<div class="' + (f.resolved ? '' : 'pending') + '">' + total + '</div></td>';
                });
                html += '<td>' + p.totalScore + '</td></tr>';
            });
            document.getElementById('scoreboard').innerHTML = html;

            let buttons = '';
            for (let n = 0; n <= 10; n++) {
                const disabled = gameState.gameOver || n > gameState.remainingPins ? 'disabled' : '';
                buttons += '<button ' + disabled + ' onclick="roll(' + n + ')">' + n + '</button>';
            }
            document.getElementById('pins').innerHTML = buttons;
        }

        function setStatus(text) {
            document.getElementById('status').textContent = text;
        }
    </script>
</body>
</html>`
